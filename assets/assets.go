/*
NAME
  assets.go

DESCRIPTION
  assets.go holds the static address tables that locate every extractable
  asset within the US release of the ROM: the sequence table (name, size,
  ROM offset), the CTL/TBL seqfile locations, and the sample-address-to-
  filename table used to name samples discovered while walking the sound
  banks.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package assets holds the fixed address tables that locate sound assets
// within the US N64 release of the ROM. These are pure data: every value
// here is an offset or size measured directly from the ROM binary, not
// something derivable from the ROM's own structure.
package assets

// SeqEntry names one fixed-size, fixed-offset sequence asset to carve out
// of the ROM unmodified.
type SeqEntry struct {
	Filename string
	Size     uint32
	Offset   uint32
}

// TypeCTL and TypeTBL are the seqfile magic numbers identifying the CTL
// (instrument/drum control table) and TBL (raw ADPCM sample storage)
// sections respectively.
const (
	TypeCTL uint16 = 1
	TypeTBL uint16 = 2
)

// SeqfileEntry describes one of the CTL/TBL seqfiles embedded in the ROM.
type SeqfileEntry struct {
	Size   uint32
	Offset uint32
}

// Seqfiles gives the ROM offset and size of the CTL and TBL seqfiles.
var Seqfiles = map[string]SeqfileEntry{
	"ctl": {Size: 97856, Offset: 5748512},
	"tbl": {Size: 2216704, Offset: 5846368},
}

// Sequences lists every .m64 sequence file to carve directly out of the
// ROM: filename, byte size, and ROM offset.
var Sequences = []SeqEntry{
	{Filename: "sound/sequences/us/01_cutscene_collect_star.m64", Size: 619, Offset: 8076816},
	{Filename: "sound/sequences/us/02_menu_title_screen.m64", Size: 8254, Offset: 8077440},
	{Filename: "sound/sequences/us/03_level_grass.m64", Size: 5122, Offset: 8085696},
	{Filename: "sound/sequences/us/04_level_inside_castle.m64", Size: 2494, Offset: 8090832},
	{Filename: "sound/sequences/us/05_level_water.m64", Size: 4780, Offset: 8093328},
	{Filename: "sound/sequences/us/06_level_hot.m64", Size: 2451, Offset: 8098112},
	{Filename: "sound/sequences/us/07_level_boss_koopa.m64", Size: 3418, Offset: 8100576},
	{Filename: "sound/sequences/us/08_level_snow.m64", Size: 8143, Offset: 8104000},
	{Filename: "sound/sequences/us/09_level_slide.m64", Size: 7432, Offset: 8112144},
	{Filename: "sound/sequences/us/0A_level_spooky.m64", Size: 5674, Offset: 8119584},
	{Filename: "sound/sequences/us/0B_event_piranha_plant.m64", Size: 1395, Offset: 8125264},
	{Filename: "sound/sequences/us/0C_level_underground.m64", Size: 4887, Offset: 8126672},
	{Filename: "sound/sequences/us/0D_menu_star_select.m64", Size: 134, Offset: 8131568},
	{Filename: "sound/sequences/us/0E_event_powerup.m64", Size: 3129, Offset: 8131712},
	{Filename: "sound/sequences/us/0F_event_metal_cap.m64", Size: 2770, Offset: 8134848},
	{Filename: "sound/sequences/us/10_event_koopa_message.m64", Size: 552, Offset: 8137632},
	{Filename: "sound/sequences/us/11_level_koopa_road.m64", Size: 4741, Offset: 8138192},
	{Filename: "sound/sequences/us/12_event_high_score.m64", Size: 271, Offset: 8142944},
	{Filename: "sound/sequences/us/13_event_merry_go_round.m64", Size: 1657, Offset: 8143216},
	{Filename: "sound/sequences/us/14_event_race.m64", Size: 197, Offset: 8144880},
	{Filename: "sound/sequences/us/15_cutscene_star_spawn.m64", Size: 644, Offset: 8145088},
	{Filename: "sound/sequences/us/16_event_boss.m64", Size: 3435, Offset: 8145744},
	{Filename: "sound/sequences/us/17_cutscene_collect_key.m64", Size: 671, Offset: 8149184},
	{Filename: "sound/sequences/us/18_event_endless_stairs.m64", Size: 1777, Offset: 8149856},
	{Filename: "sound/sequences/us/19_level_boss_koopa_final.m64", Size: 3515, Offset: 8151648},
	{Filename: "sound/sequences/us/1A_cutscene_credits.m64", Size: 14313, Offset: 8155168},
	{Filename: "sound/sequences/us/1B_event_solve_puzzle.m64", Size: 216, Offset: 8169488},
	{Filename: "sound/sequences/us/1C_event_toad_message.m64", Size: 208, Offset: 8169712},
	{Filename: "sound/sequences/us/1D_event_peach_message.m64", Size: 432, Offset: 8169920},
	{Filename: "sound/sequences/us/1E_cutscene_intro.m64", Size: 1764, Offset: 8170352},
	{Filename: "sound/sequences/us/1F_cutscene_victory.m64", Size: 2058, Offset: 8172128},
	{Filename: "sound/sequences/us/20_cutscene_ending.m64", Size: 1882, Offset: 8174192},
	{Filename: "sound/sequences/us/21_menu_file_select.m64", Size: 781, Offset: 8176080},
	{Filename: "sound/sequences/us/22_cutscene_lakitu.m64", Size: 313, Offset: 8176864},
}

// SampleAddrs maps a key derived from a CTL entry to the filename a sample
// should be extracted as: the CTL entry's own byte offset into the CTL
// seqfile, plus the sample's address within that entry's bank data (the
// bank's 16-byte header already excluded). soundbank.ParseCTL computes the
// same key when resolving a parsed sample to a name.
var SampleAddrs = map[uint32]string{
	352: "sound/samples/sfx_1/00_twirl.aiff",
	480: "sound/samples/sfx_1/01_brushing.aiff",
	640: "sound/samples/sfx_1/02_hand_touch.aiff",
	768: "sound/samples/sfx_1/03_yoshi.aiff",
	896: "sound/samples/sfx_1/04_plop.aiff",
	1024: "sound/samples/sfx_1/05_heavy_landing.aiff",
	1424: "sound/samples/sfx_terrain/00_step_default.aiff",
	1552: "sound/samples/sfx_terrain/01_step_grass.aiff",
	1680: "sound/samples/sfx_terrain/02_step_stone.aiff",
	1808: "sound/samples/sfx_terrain/03_step_spooky.aiff",
	1936: "sound/samples/sfx_terrain/04_step_snow.aiff",
	2064: "sound/samples/sfx_terrain/05_step_ice.aiff",
	2192: "sound/samples/sfx_terrain/06_step_metal.aiff",
	2320: "sound/samples/sfx_terrain/07_step_sand.aiff",
	2768: "sound/samples/sfx_water/00_plunge.aiff",
	2896: "sound/samples/sfx_water/01_splash.aiff",
	3024: "sound/samples/sfx_water/02_swim.aiff",
	3360: "sound/samples/sfx_4/00.aiff",
	3520: "sound/samples/sfx_4/01.aiff",
	3680: "sound/samples/sfx_4/02.aiff",
	3840: "sound/samples/sfx_4/03.aiff",
	4000: "sound/samples/sfx_4/04.aiff",
	4160: "sound/samples/sfx_4/05.aiff",
	4320: "sound/samples/sfx_4/06.aiff",
	4480: "sound/samples/sfx_4/07.aiff",
	4640: "sound/samples/sfx_4/08.aiff",
	4800: "sound/samples/sfx_4/09.aiff",
	5392: "sound/samples/sfx_5/00.aiff",
	5520: "sound/samples/sfx_5/01.aiff",
	5648: "sound/samples/sfx_5/02.aiff",
	5776: "sound/samples/sfx_5/03.aiff",
	5904: "sound/samples/sfx_5/04.aiff",
	6032: "sound/samples/sfx_5/05.aiff",
	6160: "sound/samples/sfx_5/06.aiff",
	6288: "sound/samples/sfx_5/07.aiff",
	6416: "sound/samples/sfx_5/08.aiff",
	6544: "sound/samples/sfx_5/09.aiff",
	6672: "sound/samples/sfx_5/0A.aiff",
	6800: "sound/samples/sfx_5/0B.aiff",
	6928: "sound/samples/sfx_5/0C.aiff",
	7056: "sound/samples/sfx_5/0D.aiff",
	7952: "sound/samples/sfx_5/0E.aiff",
	8080: "sound/samples/sfx_5/0F.aiff",
	8240: "sound/samples/sfx_5/10.aiff",
	8400: "sound/samples/sfx_5/11.aiff",
	8688: "sound/samples/sfx_5/12.aiff",
	8816: "sound/samples/sfx_5/13.aiff",
	8976: "sound/samples/sfx_5/14.aiff",
	9104: "sound/samples/sfx_5/15.aiff",
	9232: "sound/samples/sfx_5/16.aiff",
	9360: "sound/samples/sfx_5/17.aiff",
	9488: "sound/samples/sfx_5/18.aiff",
	9616: "sound/samples/sfx_5/19.aiff",
	9776: "sound/samples/sfx_5/1A.aiff",
	9936: "sound/samples/sfx_5/1B.aiff",
	10064: "sound/samples/sfx_5/1C.aiff",
	10864: "sound/samples/sfx_6/00.aiff",
	10992: "sound/samples/sfx_6/01.aiff",
	11120: "sound/samples/sfx_6/02.aiff",
	11248: "sound/samples/sfx_6/03.aiff",
	11376: "sound/samples/sfx_6/04.aiff",
	11504: "sound/samples/sfx_6/05.aiff",
	11632: "sound/samples/sfx_6/06.aiff",
	11760: "sound/samples/sfx_6/07.aiff",
	11888: "sound/samples/sfx_6/08.aiff",
	12016: "sound/samples/sfx_6/09.aiff",
	12176: "sound/samples/sfx_6/0A.aiff",
	12336: "sound/samples/sfx_6/0B.aiff",
	12464: "sound/samples/sfx_6/0C.aiff",
	12592: "sound/samples/sfx_6/0D.aiff",
	13440: "sound/samples/sfx_7/00.aiff",
	13568: "sound/samples/sfx_7/01.aiff",
	13696: "sound/samples/sfx_7/02.aiff",
	13824: "sound/samples/sfx_7/03.aiff",
	13952: "sound/samples/sfx_7/04.aiff",
	14112: "sound/samples/sfx_7/05.aiff",
	14272: "sound/samples/sfx_7/06.aiff",
	14400: "sound/samples/sfx_7/07.aiff",
	14528: "sound/samples/sfx_7/08.aiff",
	14656: "sound/samples/sfx_7/09.aiff",
	14784: "sound/samples/sfx_7/0A.aiff",
	14912: "sound/samples/sfx_7/0B.aiff",
	15040: "sound/samples/sfx_7/0C.aiff",
	15168: "sound/samples/sfx_7/0D_chain_chomp_bark.aiff",
	15968: "sound/samples/sfx_mario/00_mario_jump_hoo.aiff",
	16096: "sound/samples/sfx_mario/01_mario_jump_wah.aiff",
	16224: "sound/samples/sfx_mario/02_mario_yah.aiff",
	16352: "sound/samples/sfx_mario/03_mario_haha.aiff",
	16480: "sound/samples/sfx_mario/04_mario_yahoo.aiff",
	16608: "sound/samples/sfx_mario/05_mario_uh.aiff",
	16736: "sound/samples/sfx_mario/06_mario_hrmm.aiff",
	16864: "sound/samples/sfx_mario/07_mario_wah2.aiff",
	16992: "sound/samples/sfx_mario/08_mario_whoa.aiff",
	17120: "sound/samples/sfx_mario/09_mario_eeuh.aiff",
	17248: "sound/samples/sfx_mario/0A_mario_attacked.aiff",
	17376: "sound/samples/sfx_mario/0B_mario_ooof.aiff",
	17504: "sound/samples/sfx_mario/0C_mario_here_we_go.aiff",
	17632: "sound/samples/sfx_mario/0D_mario_yawning.aiff",
	17760: "sound/samples/sfx_mario/0E_mario_snoring1.aiff",
	17888: "sound/samples/sfx_mario/0F_mario_snoring2.aiff",
	18016: "sound/samples/sfx_mario/10_mario_doh.aiff",
	18144: "sound/samples/sfx_mario/11_mario_game_over.aiff",
	18272: "sound/samples/sfx_mario/12_mario_hello.aiff",
	18400: "sound/samples/sfx_mario/13_mario_press_start_to_play.aiff",
	18528: "sound/samples/sfx_mario/14_mario_twirl_bounce.aiff",
	18656: "sound/samples/sfx_mario/15_mario_snoring3.aiff",
	18784: "sound/samples/sfx_mario/16_mario_so_longa_bowser.aiff",
	18912: "sound/samples/sfx_mario/17_mario_ima_tired.aiff",
	19040: "sound/samples/sfx_mario/18_mario_waha.aiff",
	19168: "sound/samples/sfx_mario/19_mario_yippee.aiff",
	19296: "sound/samples/sfx_mario/1A_mario_lets_a_go.aiff",
	20352: "sound/samples/sfx_9/00.aiff",
	20480: "sound/samples/sfx_9/01.aiff",
	20608: "sound/samples/sfx_9/02.aiff",
	20768: "sound/samples/sfx_9/03.aiff",
	20928: "sound/samples/sfx_9/04_camera_buzz.aiff",
	21056: "sound/samples/sfx_9/05_camera_shutter.aiff",
	21184: "sound/samples/sfx_9/06.aiff",
	21760: "sound/samples/sfx_mario_peach/00_mario_waaaooow.aiff",
	21888: "sound/samples/sfx_mario_peach/01_mario_hoohoo.aiff",
	22016: "sound/samples/sfx_mario_peach/02_mario_panting.aiff",
	22144: "sound/samples/sfx_mario_peach/03_mario_dying.aiff",
	22272: "sound/samples/sfx_mario_peach/04_mario_on_fire.aiff",
	22400: "sound/samples/sfx_mario_peach/05_mario_uh2.aiff",
	22528: "sound/samples/sfx_mario_peach/06_mario_coughing.aiff",
	22656: "sound/samples/sfx_mario_peach/07_mario_its_a_me_mario.aiff",
	22784: "sound/samples/sfx_mario_peach/08_mario_punch_yah.aiff",
	22912: "sound/samples/sfx_mario_peach/09_mario_punch_hoo.aiff",
	23040: "sound/samples/sfx_mario_peach/0A_mario_mama_mia.aiff",
	23168: "sound/samples/sfx_mario_peach/0B_mario_okey_dokey.aiff",
	23296: "sound/samples/sfx_mario_peach/0C_mario_drowning.aiff",
	23424: "sound/samples/sfx_mario_peach/0D_mario_thank_you_playing_my_game.aiff",
	23552: "sound/samples/sfx_mario_peach/0E_peach_dear_mario.aiff",
	23680: "sound/samples/sfx_mario_peach/0F_peach_mario.aiff",
	23808: "sound/samples/sfx_mario_peach/10_peach_power_of_the_stars.aiff",
	23936: "sound/samples/sfx_mario_peach/11_peach_thanks_to_you.aiff",
	24064: "sound/samples/sfx_mario_peach/12_peach_thank_you_mario.aiff",
	24192: "sound/samples/sfx_mario_peach/13_peach_something_special.aiff",
	24320: "sound/samples/sfx_mario_peach/14_peach_bake_a_cake.aiff",
	24448: "sound/samples/sfx_mario_peach/15_peach_for_mario.aiff",
	24576: "sound/samples/sfx_mario_peach/16_peach_mario2.aiff",
	31968: "sound/samples/instruments/00.aiff",
	32128: "sound/samples/instruments/01_banjo_1.aiff",
	32288: "sound/samples/instruments/02.aiff",
	32448: "sound/samples/instruments/03_human_whistle.aiff",
	55184: "sound/samples/instruments/04_bright_piano.aiff",
	59040: "sound/samples/instruments/05_acoustic_bass.aiff",
	55504: "sound/samples/instruments/06_kick_drum_1.aiff",
	55632: "sound/samples/instruments/07_rimshot.aiff",
	55760: "sound/samples/instruments/08.aiff",
	55888: "sound/samples/instruments/09.aiff",
	28400: "sound/samples/instruments/0A_tambourine.aiff",
	51184: "sound/samples/instruments/0B.aiff",
	51312: "sound/samples/instruments/0C_conga_stick.aiff",
	51440: "sound/samples/instruments/0D_clave.aiff",
	26304: "sound/samples/instruments/0E_hihat_closed.aiff",
	34080: "sound/samples/instruments/0F_hihat_open.aiff",
	28912: "sound/samples/instruments/10_cymbal_bell.aiff",
	29040: "sound/samples/instruments/11_splash_cymbal.aiff",
	34464: "sound/samples/instruments/12_snare_drum_1.aiff",
	45056: "sound/samples/instruments/13_snare_drum_2.aiff",
	73456: "sound/samples/instruments/14_strings_5.aiff",
	73616: "sound/samples/instruments/15_strings_4.aiff",
	73296: "sound/samples/instruments/16_french_horns.aiff",
	72976: "sound/samples/instruments/17_trumpet.aiff",
	70688: "sound/samples/instruments/18_timpani.aiff",
	42912: "sound/samples/instruments/19_brass.aiff",
	43072: "sound/samples/instruments/1A_slap_bass.aiff",
	43232: "sound/samples/instruments/1B_organ_2.aiff",
	43392: "sound/samples/instruments/1C.aiff",
	54352: "sound/samples/instruments/1D.aiff",
	29424: "sound/samples/instruments/1E_closed_triangle.aiff",
	29552: "sound/samples/instruments/1F_open_triangle.aiff",
	29680: "sound/samples/instruments/20_cabasa.aiff",
	27568: "sound/samples/instruments/21_sine_bass.aiff",
	38368: "sound/samples/instruments/22_boys_choir.aiff",
	36544: "sound/samples/instruments/23_strings_1.aiff",
	36704: "sound/samples/instruments/24_strings_2.aiff",
	36864: "sound/samples/instruments/25_strings_3.aiff",
	37440: "sound/samples/instruments/26_crystal_rhodes.aiff",
	80880: "sound/samples/instruments/27_harpsichord.aiff",
	38528: "sound/samples/instruments/28_sitar_1.aiff",
	48608: "sound/samples/instruments/29_orchestra_hit.aiff",
	37984: "sound/samples/instruments/2A.aiff",
	38112: "sound/samples/instruments/2B.aiff",
	38240: "sound/samples/instruments/2C.aiff",
	37280: "sound/samples/instruments/2D_trombone.aiff",
	25984: "sound/samples/instruments/2E_accordion.aiff",
	26560: "sound/samples/instruments/2F_sleigh_bells.aiff",
	47520: "sound/samples/instruments/30_rarefaction-lahna.aiff",
	47680: "sound/samples/instruments/31_rarefaction-convolution.aiff",
	47840: "sound/samples/instruments/32_metal_rimshot.aiff",
	47968: "sound/samples/instruments/33_kick_drum_2.aiff",
	48736: "sound/samples/instruments/34_alto_flute.aiff",
	42624: "sound/samples/instruments/35_gospel_organ.aiff",
	63680: "sound/samples/instruments/36_sawtooth_synth.aiff",
	63840: "sound/samples/instruments/37_square_synth.aiff",
	66048: "sound/samples/instruments/38_electric_kick_drum.aiff",
	38688: "sound/samples/instruments/39_sitar_2.aiff",
	53920: "sound/samples/instruments/3A_music_box.aiff",
	25536: "sound/samples/instruments/3B_banjo_2.aiff",
	25696: "sound/samples/instruments/3C_acoustic_guitar.aiff",
	25856: "sound/samples/instruments/3D.aiff",
	39104: "sound/samples/instruments/3E_monk_choir.aiff",
	39264: "sound/samples/instruments/3F.aiff",
	39392: "sound/samples/instruments/40_bell.aiff",
	88912: "sound/samples/instruments/41_pan_flute.aiff",
	29808: "sound/samples/instruments/42_vibraphone.aiff",
	92160: "sound/samples/instruments/43_harmonica.aiff",
	92768: "sound/samples/instruments/44_grand_piano.aiff",
	93088: "sound/samples/instruments/45_french_horns_lq.aiff",
	37024: "sound/samples/instruments/46_pizzicato_strings_1.aiff",
	37152: "sound/samples/instruments/47_pizzicato_strings_2.aiff",
	42784: "sound/samples/instruments/48_steel_drum.aiff",
	79280: "sound/samples/piranha_music_box/00_music_box.aiff",
	58288: "sound/samples/course_start/00_la.aiff",
	80064: "sound/samples/bowser_organ/00_organ_1.aiff",
	80224: "sound/samples/bowser_organ/01_organ_1_lq.aiff",
	90416: "sound/samples/bowser_organ/02_boys_choir.aiff",
}
